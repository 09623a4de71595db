// Package core provides the value types a rendered screen is made of:
// colors, styles, styled spans and frames. The editor composes Frames and
// the terminal backend encodes them, so this package sits below both.
package core
