package email

// SendWelcomeEmail greets a newly registered student.
func (c *Client) SendWelcomeEmail(to, prenom, nom string) error {
	data := map[string]string{
		"Prenom": prenom,
		"Nom":    nom,
	}

	return c.SendEmail(to, "Bienvenue sur la plateforme étudiants", TemplateWelcome, data)
}
