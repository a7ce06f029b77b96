package network

// BuiltinName names the network shipped with the binary.
const BuiltinName = "software product launch (Williams 2013, pp. 95-98)"

// builtinActivities holds, per activity: optimistic, pessimistic and expected
// hours, required roles and predecessors.
var builtinActivities = []struct {
	id                    string
	best, worst, expected float64
	roles                 []string
	after                 []string
}{
	{"Describe_product", 8, 16, 12, []string{"project_manager"}, nil},
	{"Marketing_strategy", 24, 32, 28, []string{"project_manager"}, nil},
	{"Brochure", 8, 16, 12, []string{"UI_designer"}, []string{"Describe_product"}},
	{"requirement_analysis", 24, 32, 28, []string{"project_manager", "data_engineer"}, []string{"Describe_product"}},
	{"software_design", 32, 48, 40, []string{"frontend_developer", "backend_developer"}, []string{"requirement_analysis"}},
	{"system_design", 32, 48, 40, []string{"frontend_developer", "backend_developer"}, []string{"requirement_analysis"}},
	{"coding", 128, 160, 144, []string{"backend_developer", "data_scientist"}, []string{"software_design", "system_design"}},
	{"documentation", 32, 48, 40, []string{"project_manager", "UI_designer"}, []string{"coding"}},
	{"unit_test", 48, 64, 56, []string{"QA_engineer"}, []string{"coding"}},
	{"system_test", 24, 32, 28, []string{"QA_engineer"}, []string{"unit_test"}},
	{"package", 24, 36, 30, []string{"project_manager", "frontend_developer", "backend_developer"}, []string{"documentation", "system_test"}},
	{"market_survey", 32, 48, 36, []string{"data_engineer"}, []string{"Marketing_strategy", "Brochure"}},
	{"pricing_plan", 32, 40, 32, []string{"project_manager", "backend_developer"}, []string{"package", "market_survey"}},
	{"implementation_plan", 16, 24, 20, []string{"project_manager", "frontend_developer"}, []string{"Describe_product", "package"}},
	{"client_proposal", 16, 24, 20, []string{"project_manager"}, []string{"pricing_plan", "implementation_plan"}},
}

var builtinRates = []RateSpec{
	{Role: "project_manager", Rate: 61},
	{Role: "frontend_developer", Rate: 65},
	{Role: "backend_developer", Rate: 53},
	{Role: "data_scientist", Rate: 61},
	{Role: "data_engineer", Rate: 64},
	{Role: "UI_designer", Rate: 53},
	{Role: "QA_engineer", Rate: 47},
}

// BuiltinDefinition returns a fresh copy of the built-in network definition.
func BuiltinDefinition() Definition {
	def := Definition{
		Name:  BuiltinName,
		Rates: append([]RateSpec(nil), builtinRates...),
	}
	for _, a := range builtinActivities {
		def.Activities = append(def.Activities, ActivitySpec{
			ID: a.id,
			Durations: map[Scenario]float64{
				Optimistic:  a.best,
				Pessimistic: a.worst,
				Expected:    a.expected,
			},
			Roles:        append([]string(nil), a.roles...),
			Predecessors: append([]string(nil), a.after...),
		})
	}
	return def
}

// Builtin returns the built-in network. It panics if the embedded tables are
// invalid, which the package tests rule out.
func Builtin() *Network {
	n, err := New(BuiltinDefinition())
	if err != nil {
		panic(err)
	}
	return n
}
