package entity

type Consultant struct {
	Base
	Name           string `db:"name"`
	Specialization string `db:"specialization"`
}
