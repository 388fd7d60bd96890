// Package assets loads user stylesheets that extend the report layout.
//
// A stylesheet is referenced by path, e.g. "branding/company.css". The
// directory is opened as a StyleDir and the file name, without extension, is
// the style name. Names are validated and resolved paths must stay
// inside the directory, symlinks included.
//
// The built-in layout CSS is generated from the page geometry; a user
// stylesheet is injected after it, so its rules win on equal specificity.
package assets
