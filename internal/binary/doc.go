// Package binary locates, downloads and installs the vekt release binary.
//
// # Flow
//
// Manager.Run executes the stages strictly in order and stops at the first
// failure:
//
//  1. Resolve the host platform (internal/platform).
//  2. Locate the latest-release asset for it, and take the per-target
//     install lock (internal/lock).
//  3. Fetch the asset through the first available transport.
//  4. Install it atomically at the target path.
//  5. Register the install directory on the search path (Windows), or
//     produce a hint for the user's shell profile (Linux/macOS).
//
// # Install atomicity
//
// The download is written to a temporary file, fsynced, and made
// executable before a rename moves it onto the final path. A failed or
// truncated download never replaces an existing binary.
//
// When the target directory is not writable, Linux and macOS install
// through sudo: the file is copied next to the target as root, then
// renamed into place. Windows installs per-user under %LOCALAPPDATA% and
// never elevates.
//
// # Usage
//
//	mgr, err := binary.NewManager(binary.Options{Config: cfg})
//	if err != nil {
//	    return err
//	}
//	result, err := mgr.Run(ctx)
package binary
