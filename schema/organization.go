package schema

// Organization is a support organization for crime victims
type Organization struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
	Contact     string `json:"contact" mapstructure:"contact"`
	Category    string `json:"category" mapstructure:"category"`
}

var DefaultOrganizations = []Organization{
	{
		Name:        "Legal Aid Society",
		Description: "Provides free legal assistance to victims of crimes.",
		Contact:     "+972-XX-XXXXXXX",
		Category:    "Legal",
	},
	{
		Name:        "Victim Support Center",
		Description: "24/7 support and counseling for crime victims.",
		Contact:     "+972-XX-XXXXXXX",
		Category:    "Support",
	},
	{
		Name:        "Citizens' Rights Association",
		Description: "Advocacy and support for civil rights.",
		Contact:     "+972-XX-XXXXXXX",
		Category:    "Advocacy",
	},
	{
		Name:        "Community Legal Clinic",
		Description: "Free legal consultations and representation.",
		Contact:     "+972-XX-XXXXXXX",
		Category:    "Legal",
	},
}
