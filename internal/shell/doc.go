// Package shell makes an installed binary reachable through the user's
// command search path.
//
// On Windows the Registrar appends the install directory to the persisted
// user PATH (HKCU\Environment\Path) and to the running process. Entries
// are compared path-equivalently: case, quotes, trailing separators and
// %VAR% references do not create duplicates.
//
// On Linux and macOS shell profiles own PATH, so nothing is written;
// PathHint suggests the line to add to the detected shell's rc file.
package shell
