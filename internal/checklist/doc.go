// Package checklist runs the extension readiness checks against a project
// directory and aggregates their results.
//
// The package validates:
//   - Project structure (required files)
//   - The package.json manifest (fields, commands, configuration)
//   - Compilation with the external compiler, when installed
//   - Security helpers in the security source file
//   - Source tree size and entry point exports
//   - README sections and length
//
// Use the Runner type to run every check in order:
//
//	project, err := checklist.NewProject(dir, cfg)
//	runner := checklist.New(checklist.WithObserver(renderer))
//	report := runner.RunAll(ctx, project)
//	if !report.Ready() {
//	    // Handle failures
//	}
package checklist
