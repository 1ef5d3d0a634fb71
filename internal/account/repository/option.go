package repository

// Sort orders supported by ListAccounts.
const (
	OrderByNameAsc    = "name_asc"
	OrderByCreatedAsc = "created_asc"
)

// CreateAccountOptions holds parameters for inserting a new Account.
type CreateAccountOptions struct {
	Name     string
	Login    string
	Password string
}

// GetOneAccountOptions holds filter parameters for fetching a single Account.
// ID and Login are exact matches combined with AND. NameOrLogin matches
// either column and is ORed internally.
type GetOneAccountOptions struct {
	ID          string
	Login       string
	NameOrLogin string
}

// ListAccountsOptions holds sorting parameters for listing Accounts.
// Empty OrderBy means OrderByNameAsc.
type ListAccountsOptions struct {
	OrderBy string
}

// DeleteAccountOptions selects the Account to remove. Exactly one of ID or
// Login should be set; ID wins when both are.
type DeleteAccountOptions struct {
	ID    string
	Login string
}
