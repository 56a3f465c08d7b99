package payment

type SweepResponse struct {
	Expired int `json:"expired"`
}
