package sources

// Column names shared across source extracts.
const (
	ShortCode      = "Short #"
	EmployeeNumber = "Employee No."
	FirstName      = "First Name"
	LastName       = "Last Name"
	WorkEmail      = "Work Email"
	HomeEmail      = "Home Email"
	ExternalEmail  = "External Email"
	CellPhone      = "Cell Phone"
	JobID          = "Job ID"

	BargainingUnitCode = "Bargaining Unit Code"
	ContractCode       = "Contract Code"

	PositionName   = "Position Name"
	PositionActive = "Position Active"

	WorkAddress   = "Work Address"
	AddressLine1  = "Address Line 1"
	WorkAddressL1 = "Address Line 1.1"
	WorkAddressL2 = "Address Line 2.1"
	City          = "City"
	StateAbbr     = "State Abbr."
	ZipCode       = "Zip Code"

	EmailAllowed = "Email Allowed"
	PhoneAllowed = "Phone Allowed"
	MailAllowed  = "Mail Allowed"
	BadAddress   = "Bad Address"

	PeopleActive = "PEOPLE Active"

	// WorkEmailKey carries the contact source's work email as it was before
	// privacy suppression, for joining only.
	WorkEmailKey = "Work Email (join key)"
)

// Role flags. Each flag column is named after the position that sets it.
const (
	LocalPresident          = "Local President"
	ExecutiveBoardMember    = "Local Executive Board Member"
	PolicyCommitteeDelegate = "Policy Committee Delegate"
	Steward                 = "Steward"
)

// RoleFlags lists the flag columns in output order.
var RoleFlags = []string{
	LocalPresident,
	ExecutiveBoardMember,
	PolicyCommitteeDelegate,
	Steward,
}

// Flag values.
const (
	Yes = "Y"
	No  = "N"
)
