package mcpserver

// BoutFormatContract describes the fields and rules of a bout record for LLM
// consumers calling record_bout.
const BoutFormatContract = `# Balestra Bout Format

A bout is one scored fencing encounter against a single opponent.

## Fields

| Argument            | Required | Rules                                                   |
|---------------------|----------|---------------------------------------------------------|
| opponent_name       | yes      | 1-100 characters, surrounding spaces are trimmed        |
| date                | yes      | ` + "`YYYY-MM-DD`" + `, ` + "`YYYY-MM-DDTHH:MM`" + ` or RFC 3339                       |
| weapon              | yes      | one of ` + "`foil`, `epee`, `sabre`" + `                                |
| user_score          | yes      | whole number 0-50                                       |
| opponent_score      | yes      | whole number 0-50, must differ from user_score          |
| type                | yes      | one of ` + "`practice`, `lesson`, `tournament`, `open-bouting`" + ` |
| opponent_nickname   | no       | up to 50 characters                                     |
| opponent_weapon     | no       | one of ` + "`foil`, `epee`, `sabre`" + `                                |
| opponent_ranking    | no       | up to 20 characters                                     |
| opponent_division   | no       | up to 20 characters                                     |
| tournament_name     | no       | up to 100 characters                                    |
| location            | no       | up to 200 characters                                    |
| notes               | no       | up to 500 characters                                    |
| equipment_used      | no       | up to 100 characters                                    |

## Rules

1. **Scores cannot be tied.** Fencing bouts always have a winner; the result
   (` + "`won`" + `) is derived from the scores and is never passed in.
2. **Dates without a zone are UTC.**
3. **Every invalid field is reported**, one per line as ` + "`field: message`" + `,
   in form order.

## Example

` + "```" + `json
{
  "opponent_name": "Sarah Johnson",
  "date": "2024-12-15",
  "weapon": "epee",
  "user_score": 15,
  "opponent_score": 12,
  "type": "tournament",
  "tournament_name": "Regional Championship"
}
` + "```" + `
`
