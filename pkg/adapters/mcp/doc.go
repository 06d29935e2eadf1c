/*
Package mcp exposes tutoring sessions as Model Context Protocol tools.

An agent lists exercises, opens a session and then plays it with drop_item, add_tile,
remove_tile, check_answer, reset_session and next_problem. Every tool answers with the
current board, both as structured data and as the markdown a terminal would show.
Incorrect placements return to the bank on their own after a delay; view_session shows
the board as it is now.
*/
package mcp
