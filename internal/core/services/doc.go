// Package services contains the core pipeline services: the Summarizer,
// Embedder and Researcher stages and the Assistant orchestrator that drives
// them through the session state machine.
package services
