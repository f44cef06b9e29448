package model

// Tables 需要迁移的全部表，被引用的表在前
func Tables() []interface{} {
	return []interface{}{
		&User{},
		&Card{},
		&Offer{},
		&Cart{},
		&CartOffer{},
		&Order{},
		&OrderOffer{},
		&Discussion{},
		&Message{},
		&Review{},
		&Exchange{},
	}
}
