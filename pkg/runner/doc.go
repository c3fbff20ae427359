/*
Package runner implements the I/O port the platform uses to talk to a user.

Interactive operations render content through IOHandler.Output and ask questions
through IOHandler.Input. Three handlers are provided:

  - TextHandler: line-based terminal I/O with a cancelable read pump.
  - JSONHandler: JSON-Lines for headless clients.
  - ScriptedHandler: queued answers and captured output, for the demo and tests.

Answers are plain strings; "q" or "quit" cancels the operation in progress.
*/
package runner
