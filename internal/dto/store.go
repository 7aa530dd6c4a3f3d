package dto

// StoreDTO is the body of POST /stores and PUT /stores/:id.
type StoreDTO struct {
	Name string `json:"name" validate:"required,max=100,name"`
}

// Validate checks the store name.
func (d StoreDTO) Validate() ValidationResult {
	return validateStruct(d)
}
