/*
Package domain contains the core value types shared by the fluent chain runtime,
the recorder and the backend adapters.

It is kept free of I/O. Adapters translate their own failures into the sentinel
errors declared here so the execution envelope can classify them.

# Key Entities

  - ExecutionStopped: the single fatal error value of a chain step, carrying
    its classification message, cause, retry count and elapsed time.
  - AssertionError: a failed sanity check (wrong tag name, false predicate).
  - RetryPolicy: attempt and time budget for transient failures.
  - Hooks: observability callbacks fired by the envelope.
  - Point, Dimension: element geometry returned by accessors.
*/
package domain
