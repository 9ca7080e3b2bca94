// Package cli is responsible for parsing command-line arguments, validating
// user input, and handling process-level concerns like exit codes. It
// translates flags, SIMGRAPH_* environment variables and an optional
// settings file into the application's configuration, using cobra for the
// command tree and viper for layered settings.
//
// Commands:
//
//	simgraph validate MODEL_PATH...   load files, print rejections and findings
//	simgraph serve [--addr] [--model] serve the model to editor clients
//	simgraph sample --dist JSON       draw values from a distribution
package cli
