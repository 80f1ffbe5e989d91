package main

import (
	"strconv"
	"strings"
)

// splitN3 splits a "command;capacity;age" value into exactly three
// fields, padding with empty strings if the operator left capacity
// and/or age off (e.g. a bare command path with no threshold).
func splitN3(s string) [3]string {
	fields := strings.SplitN(s, ";", 3)
	var out [3]string
	copy(out[:], fields)
	return out
}

func parseInt64(s string) (int64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseInt(s, 10, 64)
}
