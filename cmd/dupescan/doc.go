// Command dupescan scans directories for duplicate video files, identifies
// the original in each group, and reports recommended actions.
package main
