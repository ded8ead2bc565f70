// Package naming derives machine-safe identifiers from a human plugin title:
// the class name ("CustomPlugin"), the slug ("custom-plugin") and the Python
// package name ("custom_plugin").
package naming
