package web

import "embed"

// Content holds the dashboard template and its stylesheet.
//
//go:embed dashboard.html styles.css
var Content embed.FS
