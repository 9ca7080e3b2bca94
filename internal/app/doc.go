// Package app contains the core application logic. It defines the main App
// struct, its configuration, and the lifecycle of an editing session:
// loading model files, replaying them into a graph and serving the graph to
// editor clients. It is decoupled from any specific entrypoint like a CLI.
package app
