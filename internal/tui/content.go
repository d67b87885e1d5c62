package tui

// Section ids double as anchor targets for the nav links.
const (
	sectionHome     = "home"
	sectionAbout    = "about"
	sectionServices = "services"
	sectionContact  = "contact"
)

var sectionLabels = map[string]string{
	sectionHome:     "Home",
	sectionAbout:    "About",
	sectionServices: "Services",
	sectionContact:  "Contact",
}

type card struct {
	id    string
	title string
	body  string
}

var aboutCards = []card{
	{"about-mission", "Our Mission", "We design and ship fast, secure websites for teams that want to look as sharp as their code."},
	{"about-team", "The Team", "Engineers, designers and security folks who have been building for the web since the dial-up days."},
}

var serviceCards = []card{
	{"service-web", "Web Development", "Responsive sites and web apps built on modern, maintainable stacks."},
	{"service-design", "UI/UX Design", "Interfaces that feel obvious, tested with real users before launch."},
	{"service-security", "Security Audits", "Hardening, penetration testing and monitoring for what you already run."},
	{"service-support", "Maintenance", "Updates, backups and uptime checks so your site keeps running after launch."},
}

const (
	heroTitle    = "CYBERCORE SYSTEMS"
	heroSubtitle = "Digital solutions for the connected future"

	bannerSuccessText = "✓ Message sent successfully! We'll get back to you soon."
	bannerFailureText = "✗ Something went wrong. Please try again later."
)
