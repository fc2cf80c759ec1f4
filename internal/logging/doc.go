// Package logging provides opt-in file-based logging with rotation for extcheck.
// When the --debug flag is set, check lifecycle logs are written as JSON to
// ~/.extcheck/logs/extcheck.log, which `extcheck logs` can tail and filter.
//
// Without --debug a text logger writes to stderr at the configured
// log_level, so the report on stdout stays clean.
package logging
