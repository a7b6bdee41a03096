// Package model defines the core data structures used throughout imgshield.
//
// This package contains the following main types:
//   - Region: A rectangular redaction area with its effect and blur strength
//   - AnalysisResponse: The payload returned by the privacy analysis endpoint
//   - ImageReview: The accumulated result of reviewing one image
//   - Finding: A metadata finding with severity, impact and recommendation
//   - ScoreEntry: One persisted privacy score
//
// Models live in their own package so that the redaction engine, the analysis
// client, the report writers and the history database can share them without
// import cycles. All of them serialize to JSON.
package model
