package query

// Per-family builders: pure transforms from validated arguments to filter
// sequences. Empty strings and nil pointers mean "don't filter"; the
// validator guarantees enum and type correctness before arguments arrive
// here.

// FindingArgs are the semantic filters shared by the finding list, search,
// and count tools.
type FindingArgs struct {
	ProductName  string
	Severity     string
	Active       *bool
	IsMitigated  *bool
	Duplicate    *bool
	EngagementID *int
	// Query is the free-text search; only the search tool sets it.
	Query string
}

// Findings translates finding filters. The engagement scope traverses the
// test relation: findings attach to engagements through their test.
func Findings(a FindingArgs) []Filter {
	var fs []Filter
	if a.ProductName != "" {
		fs = append(fs, Term("product_name", a.ProductName))
	}
	if a.Severity != "" {
		fs = append(fs, Term("severity", a.Severity))
	}
	if a.Active != nil {
		fs = append(fs, Bool("active", *a.Active))
	}
	if a.IsMitigated != nil {
		fs = append(fs, Bool("is_mitigated", *a.IsMitigated))
	}
	if a.Duplicate != nil {
		fs = append(fs, Bool("duplicate", *a.Duplicate))
	}
	if a.EngagementID != nil {
		fs = append(fs, Scope("test__engagement", *a.EngagementID))
	}
	if a.Query != "" {
		fs = append(fs, Search(a.Query))
	}
	return fs
}

// ProductArgs are the semantic filters for product list and count tools.
type ProductArgs struct {
	Name               string
	ProdTypes          []int
	Tags               []string
	TagsMode           TagMode
	ExternalAudience   *bool
	InternetAccessible *bool
}

// Products translates product filters.
func Products(a ProductArgs) []Filter {
	var fs []Filter
	if a.Name != "" {
		fs = append(fs, Term("name", a.Name))
	}
	if len(a.ProdTypes) > 0 {
		fs = append(fs, IDs("prod_type", a.ProdTypes))
	}
	if len(a.Tags) > 0 {
		fs = append(fs, Tags(a.TagsMode, a.Tags))
	}
	if a.ExternalAudience != nil {
		fs = append(fs, Bool("external_audience", *a.ExternalAudience))
	}
	if a.InternetAccessible != nil {
		fs = append(fs, Bool("internet_accessible", *a.InternetAccessible))
	}
	return fs
}

// ProductTypeArgs filter the product-type catalog.
type ProductTypeArgs struct {
	Name string
}

// ProductTypes translates product-type filters.
func ProductTypes(a ProductTypeArgs) []Filter {
	var fs []Filter
	if a.Name != "" {
		fs = append(fs, Term("name", a.Name))
	}
	return fs
}

// EngagementArgs are the semantic filters for the engagement list tool.
type EngagementArgs struct {
	ProductID *int
	Status    string
	Name      string
	// TargetStartAfter and TargetEndBefore bound the engagement window,
	// ISO-8601 dates.
	TargetStartAfter string
	TargetEndBefore  string
}

// Engagements translates engagement filters.
func Engagements(a EngagementArgs) []Filter {
	var fs []Filter
	if a.ProductID != nil {
		fs = append(fs, Scope("product", *a.ProductID))
	}
	if a.Status != "" {
		fs = append(fs, Term("status", a.Status))
	}
	if a.Name != "" {
		fs = append(fs, Term("name", a.Name))
	}
	if a.TargetStartAfter != "" {
		fs = append(fs, DateRange("target_start", a.TargetStartAfter, ""))
	}
	if a.TargetEndBefore != "" {
		fs = append(fs, DateRange("target_end", "", a.TargetEndBefore))
	}
	return fs
}

// TestArgs are the semantic filters for the test list tool.
type TestArgs struct {
	EngagementID *int
	TestType     *int
	Tags         []string
	TagsMode     TagMode
}

// Tests translates test filters.
func Tests(a TestArgs) []Filter {
	var fs []Filter
	if a.EngagementID != nil {
		fs = append(fs, Scope("engagement", *a.EngagementID))
	}
	if a.TestType != nil {
		fs = append(fs, IDs("test_type", []int{*a.TestType}))
	}
	if len(a.Tags) > 0 {
		fs = append(fs, Tags(a.TagsMode, a.Tags))
	}
	return fs
}

// UserArgs are the semantic filters for the user list tool.
type UserArgs struct {
	Username    string
	FirstName   string
	LastName    string
	IsActive    *bool
	IsSuperuser *bool
}

// Users translates user filters.
func Users(a UserArgs) []Filter {
	var fs []Filter
	if a.Username != "" {
		fs = append(fs, Term("username", a.Username))
	}
	if a.FirstName != "" {
		fs = append(fs, Term("first_name", a.FirstName))
	}
	if a.LastName != "" {
		fs = append(fs, Term("last_name", a.LastName))
	}
	if a.IsActive != nil {
		fs = append(fs, Bool("is_active", *a.IsActive))
	}
	if a.IsSuperuser != nil {
		fs = append(fs, Bool("is_superuser", *a.IsSuperuser))
	}
	return fs
}

// GroupArgs filter the group list tool.
type GroupArgs struct {
	Name string
}

// Groups translates group filters.
func Groups(a GroupArgs) []Filter {
	var fs []Filter
	if a.Name != "" {
		fs = append(fs, Term("name", a.Name))
	}
	return fs
}

// GroupMemberArgs filter the group-membership list tool.
type GroupMemberArgs struct {
	GroupID *int
	UserID  *int
}

// GroupMembers translates membership filters.
func GroupMembers(a GroupMemberArgs) []Filter {
	var fs []Filter
	if a.GroupID != nil {
		fs = append(fs, Scope("group", *a.GroupID))
	}
	if a.UserID != nil {
		fs = append(fs, Scope("user", *a.UserID))
	}
	return fs
}
