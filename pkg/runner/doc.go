// Package runner executes external commands as argument vectors and reports
// their exit status and output. No shell is ever involved.
package runner
