package domain

// UserProfile is the identity and body data kept per user. The ID
// currently equals the name; it is carried separately so the persisted
// document keeps an explicit id field.
type UserProfile struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Age      int     `json:"age"`
	WeightKg float64 `json:"weightKg"`
	HeightM  float64 `json:"heightM"`
	Gender   string  `json:"gender"`
}

// User is the aggregate root owning one collection per record kind and
// a table of user-defined categories. Nothing here is shared between
// users.
type User struct {
	Profile    UserProfile
	Password   string
	Waters     *Collection[WaterRecord]
	Sleeps     *Collection[SleepRecord]
	Activities *Collection[ActivityRecord]
	Categories *CategorySet
}

// NewUser builds a user with empty collections and an empty category
// table.
func NewUser(profile UserProfile, password string) *User {
	return &User{
		Profile:    profile,
		Password:   password,
		Waters:     &Collection[WaterRecord]{},
		Sleeps:     &Collection[SleepRecord]{},
		Activities: &Collection[ActivityRecord]{},
		Categories: &CategorySet{},
	}
}
