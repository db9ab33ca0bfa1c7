package survey

// Choice is a single-letter answer to one survey question. Letters map to
// increasing maturity: a (none), b (basic), c (advanced).
type Choice string

const (
	ChoiceA Choice = "a"
	ChoiceB Choice = "b"
	ChoiceC Choice = "c"
)

// QuestionCount is the number of questions in the audit form.
const QuestionCount = 10

func (c Choice) Valid() bool {
	switch c {
	case ChoiceA, ChoiceB, ChoiceC:
		return true
	default:
		return false
	}
}

type Question struct {
	ID      int
	Title   string
	Options map[Choice]string
}

// Catalog is a read-only table of question titles and option texts.
type Catalog struct {
	questions map[int]Question
}

func NewCatalog(questions ...Question) *Catalog {
	c := &Catalog{questions: make(map[int]Question, len(questions))}
	for _, q := range questions {
		opts := make(map[Choice]string, len(q.Options))
		for k, v := range q.Options {
			opts[k] = v
		}
		q.Options = opts
		c.questions[q.ID] = q
	}
	return c
}

func (c *Catalog) Title(id int) (string, bool) {
	q, ok := c.questions[id]
	if !ok || q.Title == "" {
		return "", false
	}
	return q.Title, true
}

func (c *Catalog) Option(id int, choice Choice) (string, bool) {
	q, ok := c.questions[id]
	if !ok {
		return "", false
	}
	text, ok := q.Options[choice]
	return text, ok
}

// DefaultCatalog returns the audit form's questions.
func DefaultCatalog() *Catalog {
	return defaultCatalog
}

var defaultCatalog = NewCatalog(
	Question{ID: 1, Title: "1. Identidad Digital / Web", Options: map[Choice]string{
		ChoiceA: "No tengo sitio web.",
		ChoiceB: "Sí, pero no está optimizado (lento, sin diseño responsive, desactualizado).",
		ChoiceC: "Sí, está activo y funciona bien (es rápido, moderno, adaptable).",
	}},
	Question{ID: 2, Title: "2. Estrategia y Objetivos", Options: map[Choice]string{
		ChoiceA: "No, solo publicamos esporádicamente.",
		ChoiceB: "Tenemos objetivos vagos, pero no KPIs o funnels definidos.",
		ChoiceC: "Sí, tenemos una estrategia clara con métricas definidas y alineadas al negocio.",
	}},
	Question{ID: 3, Title: "3. Posicionamiento Orgánico (SEO)", Options: map[Choice]string{
		ChoiceA: "No sé qué es SEO o no lo hacemos.",
		ChoiceB: "Hacemos cosas básicas (ej. optimizar un título) pero sin estrategia integral (link building, técnica).",
		ChoiceC: "Sí, implementamos auditorías regulares, optimización on-page, off-page y técnica.",
	}},
	Question{ID: 4, Title: "4. Publicidad Pagada (PPC/Ads)", Options: map[Choice]string{
		ChoiceA: "No utilizamos publicidad pagada.",
		ChoiceB: "Sí, campañas básicas para generar likes/mensajes directos, pero sin análisis de ROI/ROAS.",
		ChoiceC: "Sí, gestionamos campañas complejas con funnels de venta avanzados y retargeting medido.",
	}},
	Question{ID: 5, Title: "5. Generación de Leads", Options: map[Choice]string{
		ChoiceA: "Los leads se quedan en la bandeja de entrada o WhatsApp.",
		ChoiceB: "Usamos un CRM o herramienta básica, pero no hay automatización de marketing.",
		ChoiceC: "Sí, tenemos funnels automatizados (Email Marketing, Retargeting) y un CRM integrado.",
	}},
	Question{ID: 6, Title: "6. Gestión de Redes Sociales", Options: map[Choice]string{
		ChoiceA: "Publicaciones irregulares sin diseño profesional ni interacción activa con la comunidad.",
		ChoiceB: "Publicaciones regulares y diseño gráfico aceptable, con gestión básica de la comunidad.",
		ChoiceC: "Gestión multicanal avanzada, con diseño profesional, contenido rico (video, micro-videos) y tono coherente de marca.",
	}},
	Question{ID: 7, Title: "7. Contenido Estratégico", Options: map[Choice]string{
		ChoiceA: "No, solo publicamos sobre nuestros productos/servicios.",
		ChoiceB: "A veces, pero no hay un plan de contenidos mensual o trimestral estratégico.",
		ChoiceC: "Sí, todo el contenido está planificado, optimizado para SEO y diseñado para cada etapa del embudo.",
	}},
	Question{ID: 8, Title: "8. Analítica Web", Options: map[Choice]string{
		ChoiceA: "No usamos ninguna herramienta o solo miramos las métricas de likes.",
		ChoiceB: "Sí, tenemos Google Analytics instalado, pero no generamos reportes con conclusiones accionables.",
		ChoiceC: "Sí, hacemos seguimiento detallado, análisis de la competencia y reportes mensuales con estrategias de mejora (CRO).",
	}},
	Question{ID: 9, Title: "9. Optimización de Conversión (CRO)", Options: map[Choice]string{
		ChoiceA: "No, la web es estática.",
		ChoiceB: "Hemos hecho cambios puntuales, pero no hay una estrategia de mejora continua basada en datos.",
		ChoiceC: "Sí, implementamos pruebas A/B y mejoras continuas para maximizar la conversión.",
	}},
	Question{ID: 10, Title: "10. Consultoría y Soporte", Options: map[Choice]string{
		ChoiceA: "No, solo necesito ejecución básica.",
		ChoiceB: "Podría ser útil.",
		ChoiceC: "Sí, es fundamental para la dirección estratégica del negocio.",
	}},
)
