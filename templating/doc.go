// Package templating renders text templates by literal placeholder
// substitution. It uses valyala/fasttemplate with configurable delimiters
// (default "{{" and "}}").
//
// Engine.Render substitutes every placeholder whose name is a known key and
// keeps all other text, unknown placeholders included, byte for byte.
// Engine.Write sends rendered content to a file or stdout.
package templating
