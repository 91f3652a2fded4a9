// Package tasks runs long-running song collection jobs with real-time progress reporting.
//
// # Operations
//
//  1. [Seeder.Seed] : Fill a store with fake data
//     - Signs up users with faker-generated names, emails and passwords
//     - Adds server-numbered favorite songs to each user
//     - Returns the created profiles with their plaintext passwords
//
//  2. [Importer.Import] : Bulk add songs to one user's collection
//     - Feeds rows to a worker pool paced by a token bucket rate limiter
//     - Records a per-row result; duplicates and invalid rows do not stop the run
//     - An unknown user aborts the remaining rows
//
// # Progress Reporting
//
// Both operations accept an optional channel of [ProgressUpdate] values.
// Updates use select with default so a slow reader never blocks the job.
package tasks
