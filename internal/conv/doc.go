// Package conv provides checked integer conversions for values read from
// untrusted input such as file headers.
package conv
