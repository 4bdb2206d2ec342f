package handler

import (
	"github.com/bwmarrin/discordgo"
)

// HelpHandler serves /ayuda.
type HelpHandler struct{}

// NewHelpHandler creates a new HelpHandler instance.
func NewHelpHandler() *HelpHandler {
	return &HelpHandler{}
}

// HandleAyuda serves /ayuda with the command reference.
func (h *HelpHandler) HandleAyuda(s *discordgo.Session, i *discordgo.InteractionCreate) {
	respondEmbed(s, i, &discordgo.MessageEmbed{
		Title: "📖 Comandos de LBucks",
		Color: 0x95A5A6,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "/saldo", Value: "Consulta tu saldo o el de otro miembro."},
			{Name: "/login_diario", Value: "Reclama tu recompensa diaria."},
			{Name: "/donar", Value: "Dona LBucks a otro miembro."},
			{Name: "/leaderboard", Value: "Los miembros con más LBucks."},
			{Name: "/historial", Value: "Tus últimos movimientos de LBucks."},
			{Name: "/juego palabra", Value: "Inicia un ahorcado en el canal."},
			{Name: "/juego numero", Value: "Inicia un adivina-el-número en el canal."},
			{Name: "/adivinar", Value: "Envía un intento; también puedes escribir en el canal."},
			{Name: "/misiones", Value: "Tus misiones diarias y su progreso."},
			{Name: "/invitaciones", Value: "Cuántos miembros trajiste al servidor."},
			{Name: "/canjear", Value: "Canjea tus LBucks en la tienda."},
			{Name: "/aventura", Value: "Explora planetas y gana LBucks y botín."},
		},
	})
}
