package models

// Factory is a tea processing factory that buys harvested leaf. Deleting a
// factory does not touch records that reference it; their denormalized
// FactoryName snapshot keeps display working.
type Factory struct {
	ID     string `bson:"_id,omitempty" json:"id"`
	Estate string `bson:"estate" json:"-"`
	Name   string `bson:"name" json:"name"`
}

// Plot is a named section of the estate.
type Plot struct {
	ID     string `bson:"_id,omitempty" json:"id"`
	Estate string `bson:"estate" json:"-"`
	Name   string `bson:"name" json:"name"`
}
