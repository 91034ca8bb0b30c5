// Package values builds the flat key-value mapping used to resolve template
// placeholders. LoadConfig decodes a JSON (or YAML) object of scalar values;
// LoadStamps reads "KEY VALUE" status files; ParseVariables reads NAME=VALUE
// pairs. Every value is converted to its textual form on load, and Merge
// layers the sources with later ones taking precedence.
package values
