// Package sources prepares local icon source directories from remote
// provider archives.
//
// The Preparer interface abstracts the process of guaranteeing that a
// provider's source directory is populated before import: the directory
// is created if absent, and when empty the provider's zip archive is
// downloaded and extracted into it. Non-empty directories are left
// untouched, so repeated runs skip the network entirely.
package sources
