package dto

// AdminRecordForm is shared by the add and edit forms. CustomDate is a
// datetime-local value interpreted in the site timezone; local_date is
// re-derived from it on every save.
type AdminRecordForm struct {
	ID           uint   `form:"id"`
	Site         string `form:"site" validate:"required,max=64"`
	UserName     string `form:"user_name" validate:"omitempty,max=200"`
	UserEmail    string `form:"user_email" validate:"omitempty,email,max=320"`
	CustomDate   string `form:"custom_date" validate:"required"`
	VisitReason  string `form:"visit_reason" validate:"omitempty,max=120"`
	BusinessLine string `form:"business_line" validate:"omitempty,max=120"`
	Notes        string `form:"notes"`
}
