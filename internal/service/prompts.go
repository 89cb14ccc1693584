package service

const visionOCRPrompt = `Extract all text content from this image. Pay special attention to:
1. Preserve the exact text as it appears
2. Identify and preserve tabular data structure - clearly mark tables with headers and rows
3. Maintain the reading order and layout structure
4. For tables, use a clear format that distinguishes headers from data rows

Provide the extracted text in a clean, readable format that preserves the document structure.`

const tableExtractionPrompt = `
You are a data extraction engine. Analyze the following OCR text from a document page.
1. Identify if there are any tables.
2. For each table, extract the data into a JSON structure.
3. Create a unique, snake_case SQL table name based on the content (e.g., 'balance_sheet_2023').
4. Infer the data type for each column (TEXT, NUMERIC, DATE).

Output Format (JSON only):
{
  "tables": [
    {
      "table_name": "string",
      "description": "string summary of table",
      "schema_list": [{"name": "col_name", "type": "TEXT|NUMERIC|DATE"}],
      "rows": [{"col_name": "value"}]
    }
  ]
}
`

const tablesKeyReminder = "\n\nCRITICAL: You must return a valid JSON object with a 'tables' key containing the list of tables."

const sqlSystemPrompt = "You are a SQL expert."

const sqlGenerationPrompt = `
You have access to a local SQL database (PostgreSQL).
The user asks: "%s"
Relevant Table Schema: %s

Write a SINGLE SQL query to answer this. Do not use Markdown. Do not explain. Just the SQL.
`
