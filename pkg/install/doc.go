// Package install manages solver runtime dependencies across isolated named
// environments. Each solver declares one installation mechanism through a
// Descriptor; the Manager checks, installs and uninstalls dependencies by
// dispatching on that descriptor.
//
// The manager mutates environment-global state. Callers must serialize
// install and uninstall calls against a given environment; the package does
// not provide that serialization itself.
package install
