// Package report renders engine results for people (Text, via an embedded
// pongo2 template) and for programs (JSON).
package report
