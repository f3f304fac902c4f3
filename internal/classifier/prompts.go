package classifier

import "fmt"

// Prompt templates per source type. Each asks for a JSON object with a fixed
// schema; the Confluence template requests domains only.

func commitPrompt(commitMessage, changes string) string {
	return fmt.Sprintf(`You are a code review assistant.

Below is a commit message and the actual code changes across multiple files. Write a brief summary describing what the developer worked on.

Commit message:
%s

Code changes:
%s

Respond in JSON format like this:
{
  "summary": "...",
  "domains": ["...", "..."]
}`, commitMessage, changes)
}

func issuePrompt(summary, description string) string {
	return fmt.Sprintf(`You are a smart project assistant.

Below is a Jira ticket. Your task is to:
1. Write a brief summary of what the developer is working on.
2. List the technical domains involved in the ticket.

Jira Summary:
%s

Jira Description:
%s

Respond in JSON format like this:
{
  "summary": "...",
  "domains": ["...", "..."]
}`, summary, description)
}

func pagePrompt(content string) string {
	return fmt.Sprintf(`You are a smart project assistant.

Below is a Confluence page. List the technical domains the developer worked on in this page.

Page content:
%s

Respond in JSON format like this:
{
  "domains": ["...", "..."]
}`, content)
}
