package category

type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

type Category struct {
	Id   int
	Name string
	Kind Kind
	// Color is the hex color used by the dashboard charts.
	Color string
}
