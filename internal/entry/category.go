package entry

// Category classifies an entry. The valid set depends on the entry's sign.
type Category string

const (
	CategoryLiving        Category = "생활"
	CategoryFood          Category = "식비"
	CategoryTransport     Category = "교통"
	CategoryShopping      Category = "쇼핑/뷰티"
	CategoryHealth        Category = "의료/건강"
	CategoryCulture       Category = "문화/여가"
	CategoryUncategorized Category = "미분류"

	CategorySalary      Category = "월급"
	CategoryAllowance   Category = "용돈"
	CategoryOtherIncome Category = "기타 수입"
)

var (
	ExpenseCategories = []Category{
		CategoryLiving,
		CategoryFood,
		CategoryTransport,
		CategoryShopping,
		CategoryHealth,
		CategoryCulture,
		CategoryUncategorized,
	}

	IncomeCategories = []Category{
		CategorySalary,
		CategoryAllowance,
		CategoryOtherIncome,
	}
)

// CategoriesFor returns the category set offered for the given sign.
func CategoriesFor(s Sign) []Category {
	if s == SignExpense {
		return ExpenseCategories
	}

	return IncomeCategories
}

// ValidFor reports whether c belongs to the category set of s.
func (c Category) ValidFor(s Sign) bool {
	if c == "" {
		return false
	}

	for _, known := range CategoriesFor(s) {
		if c == known {
			return true
		}
	}

	return false
}
