package dialogue

const helpText = `📋 Commands

🎯 Goals
• goals - set today's 3 goals

📝 Diary
• diary - write today's diary

📚 Vocabulary
• vocabulary - record the words you studied

💰 Expenses
• expense - record expenses
• expense-summary - spending over the last 7 days
• export-expense - export the last 30 days as CSV

📊 Summary
• summary - today's summary
• test - try the scheduled reminders

⏰ Every day you get a goal reminder in the morning, a diary reminder in the evening and a summary email at night.

Send "cancel" at any time to stop the current entry.`

const testMenuText = `🧪 Test menu

%s, you can try these:

1. test-morning - morning goal reminder
2. test-evening - evening diary reminder
3. test-summary - daily summary email
4. test-vocabulary - vocabulary reminder`

const expenseIntroText = `💰 Expenses

%s, send an expense:

📝 Examples:
• 100 Food lunch
• Food 100 lunch
• 50 Transport

🏷️ Categories:
%s

💡 Send "add category <name>" to add your own category, "done" to finish.`

const formatHelpText = `Sorry, I couldn't read that. Use one of these formats:
• 100 Food lunch
• Food 100 lunch
• 50 Transport`

const fallbackText = `Hi %s!

You said: "%s"

Here is what I can do:
• goals - set today's goals
• diary - write today's diary
• vocabulary - record words you studied
• expense - record expenses
• summary - today's summary
• help - all commands`
