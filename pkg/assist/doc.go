/*
Package assist injects ad-hoc tasks into the plan.

A Suggester turns a free-form request into (title, duration, effort)
tuples; the production implementation calls the Google Gemini API.
The Injector then inserts the tuples as manual plan items for a
target date and start time. Injected items are user-owned: the
deterministic regeneration path never inspects or mutates them.
*/
package assist
