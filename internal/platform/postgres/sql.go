package postgres

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// bulkInsert builds a multi-row INSERT statement for rowCount rows of the
// given columns, numbering placeholders row by row.
func bulkInsert(table string, columns []string, rowCount int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES ", table, strings.Join(columns, ", "))

	n := 1
	for r := 0; r < rowCount; r++ {
		if r > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('(')
		for c := range columns {
			if c > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "$%d", n)
			n++
		}
		b.WriteByte(')')
	}
	return b.String()
}

// uuidArray renders ids as a PostgreSQL array literal for use with a
// $n::uuid[] parameter.
func uuidArray(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}
