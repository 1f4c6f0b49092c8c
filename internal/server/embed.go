package server

import "embed"

// StaticFS holds the stylesheet and the small form script.
//
//go:embed static/*
var StaticFS embed.FS

//go:embed templates/*.html
var templateFS embed.FS
