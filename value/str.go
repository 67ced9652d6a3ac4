package value

import "strconv"

// String is a text value.
type String string

func (s String) String() string {
	return string(s)
}

// Quote returns s as a double-quoted literal.
func (s String) Quote() string {
	return strconv.Quote(string(s))
}
