// Package outwriter renders analytics results as text tables, CSV or JSON.
//
// Every writer follows the same shape: the configured output mode picks the
// encoder, cfg.OutputFile picks the destination (stdout when empty), and text
// output ends with a footer naming the elapsed time and store backend.
package outwriter
