package user

type User struct {
	Id          int
	Uid         string
	Username    string
	DisplayName string
	Settings    Settings
}

type Settings struct {
	// Currency is the ISO 4217 code used for all of the user's amounts.
	Currency string
	Timezone string
}
