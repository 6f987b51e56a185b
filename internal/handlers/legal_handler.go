package handlers

import (
	"github.com/gofiber/fiber/v2"
)

const legalStyle = `<meta name="viewport" content="width=device-width, initial-scale=1">
<style>body{font-family:-apple-system,BlinkMacSystemFont,sans-serif;max-width:800px;margin:0 auto;padding:20px;color:#333}h1{color:#1a1a1a}h2{color:#444;margin-top:30px}</style>`

type LegalHandler struct {
	contactEmail string
}

func NewLegalHandler(contactEmail string) *LegalHandler {
	return &LegalHandler{contactEmail: contactEmail}
}

func (h *LegalHandler) PrivacyPolicy(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Privacy Policy - Swapify</title>
` + legalStyle + `
</head><body>
<h1>Privacy Policy</h1>
<p>Last updated: October 2026</p>
<h2>Information We Collect</h2>
<p>We collect the username, email address and optional profile details you provide, the listings you publish including their approximate location, and the messages you exchange with other members. If you sign in with Google, we receive your Google account identifier, name and profile picture.</p>
<h2>How We Use Your Information</h2>
<p>Your data is used to run the Swapify marketplace: showing your listings to nearby buyers, delivering chat messages and sending password reset emails.</p>
<h2>Location</h2>
<p>Listing coordinates are used to compute distances for nearby search. Your own position is only used for the duration of a search request and is not stored.</p>
<h2>Data Storage</h2>
<p>Your data is stored on secured servers. We do not sell your personal information to third parties.</p>
<h2>Contact</h2>
<p>For questions about this policy, contact us at ` + h.contactEmail + `</p>
</body></html>`)
}

func (h *LegalHandler) TermsOfService(c *fiber.Ctx) error {
	return c.Type("html").SendString(`<!DOCTYPE html>
<html><head><title>Terms of Service - Swapify</title>
` + legalStyle + `
</head><body>
<h1>Terms of Service</h1>
<p>Last updated: October 2026</p>
<h2>Acceptance</h2>
<p>By using Swapify, you agree to these terms.</p>
<h2>Listings</h2>
<p>You are responsible for the accuracy of your listings and for the items you offer. Counterfeit, illegal or dangerous goods are not allowed and may be removed after a report.</p>
<h2>Transactions</h2>
<p>Swapify connects buyers and sellers but is not a party to any sale. Meet in safe places and inspect items before paying.</p>
<h2>Account</h2>
<p>Only one active session is kept per account. Signing in on a new device signs out the previous one.</p>
<h2>Contact</h2>
<p>Questions about these terms can be sent to ` + h.contactEmail + `</p>
</body></html>`)
}
