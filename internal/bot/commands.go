package bot

import "github.com/bwmarrin/discordgo"

// commands are the slash commands registered on the guild at startup.
func commands() []*discordgo.ApplicationCommand {
	minAmount := float64(1)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "ayuda",
			Description: "Muestra los comandos disponibles",
		},
		{
			Name:        "saldo",
			Description: "Consulta tu saldo de LBucks",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "usuario",
					Description: "Miembro a consultar (tú por defecto)",
				},
			},
		},
		{
			Name:        "login_diario",
			Description: "Reclama tu recompensa diaria de LBucks",
		},
		{
			Name:        "donar",
			Description: "Dona LBucks a otro miembro",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "usuario",
					Description: "Miembro que recibe la donación",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "cantidad",
					Description: "Cantidad de LBucks",
					Required:    true,
					MinValue:    &minAmount,
				},
			},
		},
		{
			Name:        "leaderboard",
			Description: "Los miembros con más LBucks",
		},
		{
			Name:        "historial",
			Description: "Tus últimos movimientos de LBucks",
		},
		{
			Name:        "juego",
			Description: "Inicia un minijuego en este canal",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "palabra",
					Description: "Ahorcado: adivina la palabra secreta",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "numero",
					Description: "Adivina el número secreto",
				},
			},
		},
		{
			Name:        "adivinar",
			Description: "Envía un intento al juego activo",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "valor",
					Description: "Una letra, una palabra o un número",
					Required:    true,
				},
			},
		},
		{
			Name:        "misiones",
			Description: "Tus misiones diarias y su progreso",
		},
		{
			Name:        "invitaciones",
			Description: "Cuántos miembros trajiste al servidor",
		},
		{
			Name:        "canjear",
			Description: "Canjea tus LBucks en la tienda",
		},
		{
			Name:        "aventura",
			Description: "La aventura espacial de LBucks",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "iniciar",
					Description: "Crea tu perfil de explorador espacial",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "perfil",
					Description: "Tu nave, tu poder y tu botín",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "explorar",
					Description: "Explora un planeta y lucha por su recompensa",
				},
			},
		},
		{
			Name:        "admin",
			Description: "Operaciones de administración de LBucks",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add_lbucks",
					Description: "Añade LBucks a un miembro",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "usuario",
							Description: "Miembro que recibe los LBucks",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "cantidad",
							Description: "Cantidad de LBucks",
							Required:    true,
							MinValue:    &minAmount,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "quitar_lbucks",
					Description: "Retira LBucks de un miembro",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "usuario",
							Description: "Miembro que pierde los LBucks",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "cantidad",
							Description: "Cantidad de LBucks",
							Required:    true,
							MinValue:    &minAmount,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set_precio",
					Description: "Cambia el precio de un artículo de la tienda",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "articulo",
							Description: "Artículo de la tienda",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "precio",
							Description: "Nuevo precio en LBucks",
							Required:    true,
							MinValue:    &minAmount,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "set_stock",
					Description: "Cambia el stock de un artículo de la tienda",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "articulo",
							Description: "Artículo de la tienda",
							Required:    true,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "cantidad",
							Description: "Nuevo stock disponible",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "canjes",
					Description: "La cola de canjes pendientes",
				},
			},
		},
	}
}
