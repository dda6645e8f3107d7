package domain

// Models returns every persisted entity in migration order.
func Models() []any {
	return []any{
		&Account{},
		&ClientProfile{},
		&ProfessionalProfile{},
		&AdminProfile{},
		&Service{},
		&Chat{},
		&Message{},
		&Settings{},
	}
}
