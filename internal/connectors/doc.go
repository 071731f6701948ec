// Package connectors provides the sources that scanned files are read from.
// The filesystem connector reads files and directories and watches an
// inbox directory for new scans.
package connectors
