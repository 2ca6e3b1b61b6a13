// Package generations persists the local history of generated images:
// which model produced them, from which prompt, and where the file was saved.
package generations
