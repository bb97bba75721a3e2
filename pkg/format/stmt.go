package format

import (
	"errors"
	"fmt"

	"github.com/leapstack-labs/leapterm/pkg/dialect"
	"github.com/leapstack-labs/leapterm/pkg/term"
)

// ErrNoRows is returned by Insert when there is nothing to insert.
var ErrNoRows = errors.New("insert without rows")

// Update renders an UPDATE statement setting one row of assignments:
//
//	UPDATE users
//	SET
//	  name = 'x',
//	  tags = ARRAY['a']
func Update(d *dialect.Dialect, table string, row []term.Assignment, value ValueFunc) (string, error) {
	p := newPrinter(d)
	p.keyword("update")
	p.space()
	p.ident(table)
	p.writeln()

	p.keyword("set")
	p.writeln()
	p.indent()
	err := p.formatList(len(row), func(i int) error {
		text, err := value(row[i].Value)
		if err != nil {
			return fmt.Errorf("column %s: %w", row[i].Column, err)
		}
		p.write(d.QuoteIdentifierIfNeeded(row[i].Column))
		p.write(" = ")
		p.write(text)
		return nil
	}, ",", true)
	p.dedent()
	if err != nil {
		return "", err
	}
	return p.String(), nil
}

// Insert renders a multi-row INSERT statement. The first row fixes the
// column list; every other row must assign the same columns in order.
//
//	INSERT INTO users (id, name)
//	VALUES
//	  (1, 'x'),
//	  (2, 'y')
func Insert(d *dialect.Dialect, table string, rows [][]term.Assignment, value ValueFunc) (string, error) {
	if len(rows) == 0 {
		return "", ErrNoRows
	}
	columns := rows[0]

	p := newPrinter(d)
	p.keyword("insert into")
	p.space()
	p.ident(table)
	p.write(" (")
	_ = p.formatList(len(columns), func(i int) error {
		p.write(d.QuoteIdentifierIfNeeded(columns[i].Column))
		return nil
	}, ", ", false)
	p.write(")")
	p.writeln()

	p.keyword("values")
	p.writeln()
	p.indent()
	err := p.formatList(len(rows), func(i int) error {
		row := rows[i]
		if len(row) != len(columns) {
			return fmt.Errorf("row %d has %d values, expected %d", i+1, len(row), len(columns))
		}
		p.write("(")
		err := p.formatList(len(row), func(j int) error {
			if row[j].Column != columns[j].Column {
				return fmt.Errorf("row %d assigns %s where %s was expected", i+1, row[j].Column, columns[j].Column)
			}
			text, err := value(row[j].Value)
			if err != nil {
				return fmt.Errorf("row %d, column %s: %w", i+1, row[j].Column, err)
			}
			p.write(text)
			return nil
		}, ", ", false)
		p.write(")")
		return err
	}, ",", true)
	p.dedent()
	if err != nil {
		return "", err
	}
	return p.String(), nil
}
