// Package github fetches repository file trees and blob contents from the
// GitHub API, with dual-strategy rate limiting and error classification.
package github
