// Package repository holds helpers shared by the storage backends.
package repository

import "strings"

// LikeEscape is the escape character used with ContainsPattern.
const LikeEscape = `\`

var likeReplacer = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds a LIKE pattern matching values that contain
// search literally; wildcard characters in search are escaped.
func ContainsPattern(search string) string {
	return "%" + likeReplacer.Replace(search) + "%"
}
