package cqrs

type GetAccountQuery struct {
	UserName string
}

type GetCredentialsQuery struct {
	UserName string
}
