package i18n

var enUS = map[string]string{
	"get_started.welcome":  "Hi {{userName}}! Welcome to Original Coast Clothing, your one-stop shop for the outdoors.",
	"get_started.guidance": "At any time, pick an option below or just type your question.",
	"get_started.help":     "What can we do to help you today?",

	"menu.suggestion": "Get a suggestion",
	"menu.help":       "Talk to an agent",
	"menu.start_over": "Start over",
	"menu.order":      "Order update",

	"fallback.attachment": "Thanks for sending that! If you need help, just ask or start over.",

	"curation.prompt":    "Who are you shopping for today?",
	"curation.me":        "Myself",
	"curation.someone":   "Someone else",
	"curation.occasion":  "Great, what's the occasion?",
	"curation.work":      "Work",
	"curation.dinner":    "Dinner",
	"curation.party":     "Party",
	"curation.budget":    "What price range are you thinking about?",
	"curation.price_50":  "~ $50",
	"curation.price_100": "~ $100",
	"curation.price_200": "+ $200",
	"curation.show":      "Here is a look curated for you.",
	"curation.shop":      "Shop now",
	"curation.other":     "Show me something else",
	"curation.gift":      "Gift card",
	"curation.coupon":    "Here is a 10% off coupon for your next order: {{code}}",

	"care.prompt":  "Sure {{userName}}, what can we help you with?",
	"care.order":   "An order",
	"care.billing": "Billing",
	"care.other":   "Something else",
	"care.issue":   "Okay, we'll connect you with someone who can help with {{topic}}.",
	"care.end":     "An agent will be with you shortly. Thanks for your patience!",
	"care.unknown": "We couldn't tell what you need help with, an agent will follow up.",

	"order.prompt":  "Please type in your order number.",
	"order.account": "Link your account",
	"order.status":  "Your order {{number}} is on its way.",
	"order.track":   "Track order",
	"order.help":    "Need help with your order?",
	"order.unknown": "We couldn't find that order. Try again or talk to an agent.",

	"survey.prompt":     "How would you rate your experience with us today?",
	"survey.thanks":     "Thank you for your feedback!",
	"survey.suggestion": "Anything we could do better? Just reply with a # followed by your suggestion.",
}

var esLA = map[string]string{
	"get_started.welcome":  "¡Hola {{userName}}! Bienvenido a Original Coast Clothing, tu tienda para el aire libre.",
	"get_started.guidance": "En cualquier momento elige una opción o escribe tu pregunta.",
	"get_started.help":     "¿Cómo podemos ayudarte hoy?",

	"menu.suggestion": "Recibir una sugerencia",
	"menu.help":       "Hablar con un agente",
	"menu.start_over": "Empezar de nuevo",
	"menu.order":      "Estado del pedido",

	"fallback.attachment": "¡Gracias por enviarlo! Si necesitas ayuda, pregúntanos o empieza de nuevo.",

	"care.prompt":   "Claro {{userName}}, ¿en qué te ayudamos?",
	"care.end":      "Un agente te atenderá en breve. ¡Gracias por tu paciencia!",
	"survey.thanks": "¡Gracias por tu opinión!",
}
