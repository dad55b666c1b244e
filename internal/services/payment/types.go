package payment

// CreateTransferRequest is a parsed transfer request. Amount arrives as a
// string so no precision is lost before the engine normalizes it.
type CreateTransferRequest struct {
	FromAccountID uint   `json:"from_account_id"`
	ToAccountID   uint   `json:"to_account_id"`
	Amount        string `json:"amount"`
	Description   string `json:"description"`
}

// SearchRequest filters and paginates a transfer search. Empty strings and
// zero ids mean "not filtered".
type SearchRequest struct {
	Status        string
	FromAccountID uint
	ToAccountID   uint
	Currency      string
	CreatedFrom   string
	CreatedTo     string
	Limit         int
	Offset        int
}
