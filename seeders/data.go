package seeders

type partnerSeed struct {
	Name     string
	Username string
	Email    string
}

// Демонстрационные партнёры: входят с паролем из флага -password.
var partnersData = []partnerSeed{
	{Name: "Estúdio Norte", Username: "norte", Email: "contato@estudionorte.com.br"},
	{Name: "Agência Sul", Username: "sul", Email: "os@agenciasul.com.br"},
	{Name: "Freela Leste", Username: "leste", Email: "leste@freela.dev"},
}

type clientSeed struct {
	Name    string
	Partner string
}

var clientsData = []clientSeed{
	{Name: "Padaria Central", Partner: "Estúdio Norte"},
	{Name: "Clínica Bem Estar", Partner: "Estúdio Norte"},
	{Name: "Auto Peças Rota", Partner: "Agência Sul"},
	{Name: "Escola Horizonte", Partner: ""},
}
