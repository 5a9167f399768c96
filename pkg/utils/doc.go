// Package utils holds small helpers shared by the command and library
// packages, currently panic recovery for goroutines and client calls.
package utils
