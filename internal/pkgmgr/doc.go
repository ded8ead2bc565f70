// Package pkgmgr drives the Node.js package manager used to install frontend
// dependencies into a generated plugin.
package pkgmgr
