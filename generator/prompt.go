package generator

import (
	"fmt"
	"strings"
)

// Character limits of a Google responsive search ad.
const (
	HeadlineLimit    = 30
	DescriptionLimit = 90
)

const adGuidelines = `4.  Ad Guidelines:
        * Include Keywords: Naturally incorporate keywords.
        * Strong Call-to-Action (CTA): The ad must contain a clear and compelling CTA (e.g., Get a Free Valuation, View Listings Now, Schedule a Showing).
        * Highlight Unique Selling Propositions (USPs): Emphasize what makes the realtor stand out (e.g., Top 1% Agent, Sell in 30 Days, Local Expert Since 2005).
        * Create Urgency & Trust: Use words that build trust (Certified, Expert, Trusted) and create a sense of urgency (Homes Sell Fast, Market is Hot).
5.  Formatting: Present the ad you create clearly. Do not include any other commentary.`

// HeadlineInstruction is the system prompt for headline generation.
var HeadlineInstruction = adInstruction(
	"Carefully review the realtor's details provided and include them in the ad you generate",
	HeadlineLimit,
)

// DescriptionInstruction is the system prompt for description generation. The
// first information line is expected to be the headline.
var DescriptionInstruction = adInstruction(
	"The initial line you are provided with is the ad's headline. Afterwards, you will receive information about the realtor. "+
		"Carefully review the realtor's details provided and include them in the ad you generate",
	DescriptionLimit,
)

func adInstruction(analyze string, limit int) string {
	var sb strings.Builder
	sb.WriteString("You are an assistant that creates engaging and compelling text based ads for realtors that appear on Google searches.\n")
	sb.WriteString("You will be provided some input from the realtor in the form of a list containing general information about them and what they want in the ad\n")
	sb.WriteString("INSTRUCTIONS:\n")
	sb.WriteString(fmt.Sprintf("1.  Analyze Input: %s\n", analyze))
	sb.WriteString("2.  Generate Ad: Create one ad, which should target things like speed/efficiency, expertise/trust, specific offers, etc.\n")
	sb.WriteString(fmt.Sprintf("3.  Follow Ad Structure: The ad must be %d characters or less.\n", limit))
	sb.WriteString(adGuidelines)
	return sb.String()
}

// ShortenInstruction asks the model to compress text below limit characters.
func ShortenInstruction(limit int) string {
	return fmt.Sprintf("You are an assistant that shortens text to fit in the character limit while maintaining the meaning and tone of the text. "+
		"The text must be less than %d characters long\n"+
		"Formatting: Provide only the shortened text as the output. Do not include any other commentary", limit)
}

// EVInstruction is the system prompt for buyer interest scoring.
const EVInstruction = `The assistant should only respond with a number. This number will be in the range from 0-100. This number will indicate how interested a prospective buyer of a property is interested in it. The assistant will do this by looking at a series of emails. These emails will be from the prospective buyer and a realtor helping the buyer. Each email will be sent as a separate message by the user, and the first word will indicate if the email was sent by a buyer or a realtor.
If the first word is BUYER: the email that follows is sent by a buyer.
If the first word is REALTOR: the email that follows is sent by a realtor.
The assistant will analyze this series of emails, and reply with the number that indicates the interest of the prospective buyer of the property`

// BuildPrompt pairs a system instruction with the information list as the user message.
func BuildPrompt(system string, info Information) []Message {
	return []Message{
		{Role: RoleSystem, Content: system},
		{Role: RoleUser, Content: info.Join()},
	}
}
