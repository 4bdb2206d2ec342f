package wordsource

// defaultWords is the built-in Spanish word list for the hangman game.
// Entries may carry diacritics; RandomWord normalizes on draw.
var defaultWords = []string{
	"computadora", "biblioteca", "desarrollo", "guitarra", "universo",
	"aventura", "botella", "estrella", "planeta", "galaxia", "elefante",
	"jirafa", "cocodrilo", "murcielago", "mariposa", "teclado", "montaña",
	"programacion", "inteligencia", "artificial", "videojuego", "discord",
	"pensamiento", "encuadernado", "psiquiatra", "psicologia", "carpinteria",
	"humanidad", "emprendimiento", "terrateniente", "nucleares", "agnostico",
	"pronostico", "aleatorio", "termodinamica", "prioridad", "sistematico",
	"veracidad", "parlamento", "oratoria", "permutaciones", "formalidad",
	"otorrinolaringologo", "esternocleidomastoideo", "ovoviparo", "anacronismo",
	"calamidad", "cardiologo", "indomito", "frecuente", "principalmente",
	"contrarrevolucionario", "cientificismo", "paralelepipedo",
	"transustanciacion", "estampida", "primogenitos", "judicatura",
	"estacionario", "cualificacion", "historiagrama", "gubernamental",
	"adjudicarse", "muchedumbre", "hidraulico", "criminologia", "revolucion",
	"tirania", "embebido", "embotellamiento", "electromagnetismo",
	"cuantitativo", "cualitativo", "primavera", "empobrecer", "egocentrismo",
	"abstraccion", "abstinencia", "equivalencia", "ojimetro", "hispanicos",
	"lexicografica", "estrategico", "pasarela", "caligrafico", "sanscrito",
	"transcripcion", "heterogramas", "heraldica", "enciclopedico",
	"interjeccion", "delimitacion", "estructurarse", "locuciones",
	"diferenciacion", "exhaustivo", "refrendaban", "acepciones",
	"hispanohablante", "nutrida", "caricatura", "sismologia", "arandanos",
	"luminiscencia", "espejismo", "translucidos", "transformarse", "mutuo",
	"dualidad", "existencialismo", "cabellera", "extinguir", "frontera",
	"adelgazar", "dramatizar", "ñandu", "inmobiliaria", "monotono",
	"reeducacion", "titulacion", "advertencia", "magdalena", "magnate",
	"bobina", "curaciones", "mercurio", "precipitarse", "precipicio",
	"rabia", "somatico", "movilizacion", "embaucar", "momentaneo",
}
